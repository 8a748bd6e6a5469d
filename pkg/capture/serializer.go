package capture

// serializerJS runs inside the page and returns the snapshot as a JSON
// string. It does the work only the page can do: bounding boxes with
// scroll offsets, computed-style visibility, inline script text for
// app-identifier discovery, and the DASH manifest dug out of the video
// player's framework props. The manifest lands in the synthetic
// attribute named by DashManifestAttr.
const serializerJS = `(function () {
  function dashManifestOf(el) {
    for (var key in el) {
      if (key.indexOf('__reactFiber$') !== 0 && key.indexOf('__reactInternalInstance$') !== 0) {
        continue;
      }
      var fiber = el[key];
      var depth = 0;
      while (fiber && depth < 30) {
        var props = fiber.memoizedProps;
        if (props) {
          if (typeof props.dashManifest === 'string' && props.dashManifest) {
            return props.dashManifest;
          }
          if (typeof props.videoDashManifest === 'string' && props.videoDashManifest) {
            return props.videoDashManifest;
          }
        }
        fiber = fiber.return;
        depth++;
      }
    }
    return '';
  }

  function isHidden(el) {
    var cs = window.getComputedStyle(el);
    return cs.display === 'none' || cs.visibility === 'hidden';
  }

  function serialize(el) {
    var node = { tag: el.tagName.toLowerCase() };

    var attrs = {};
    var hasAttrs = false;
    for (var i = 0; i < el.attributes.length; i++) {
      attrs[el.attributes[i].name.toLowerCase()] = el.attributes[i].value;
      hasAttrs = true;
    }
    if (node.tag === 'video') {
      var manifest = dashManifestOf(el);
      if (manifest) {
        attrs['data-igr-dash-manifest'] = manifest;
        hasAttrs = true;
      }
    }
    if (hasAttrs) {
      node.attrs = attrs;
    }

    var r = el.getBoundingClientRect();
    node.rect = {
      top: r.top + window.scrollY,
      left: r.left + window.scrollX,
      width: r.width,
      height: r.height
    };

    if (isHidden(el)) {
      node.hidden = true;
    }

    var text = '';
    var children = [];
    for (var c = el.firstChild; c; c = c.nextSibling) {
      if (c.nodeType === 1) {
        children.push(serialize(c));
      } else if (c.nodeType === 3) {
        text += c.nodeValue;
      }
    }
    text = text.replace(/^\s+|\s+$/g, '');
    if (text) {
      node.text = text;
    }
    if (children.length) {
      node.children = children;
    }
    return node;
  }

  var scripts = [];
  var tags = document.getElementsByTagName('script');
  for (var i = 0; i < tags.length; i++) {
    if (!tags[i].src && tags[i].textContent) {
      scripts.push(tags[i].textContent);
    }
  }

  return JSON.stringify({
    location: {
      href: window.location.href,
      hostname: window.location.hostname,
      path: window.location.pathname
    },
    viewport: {
      scroll_y: window.scrollY,
      width: window.innerWidth,
      height: window.innerHeight
    },
    root: serialize(document.documentElement),
    scripts: scripts
  });
})()`
